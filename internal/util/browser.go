package util

import (
	"os/exec"
	"runtime"
)

// opener 返回当前系统"用默认程序打开"的命令
// 支持 Windows 7/10/11, macOS, Linux
func opener(target string) *exec.Cmd {
	switch runtime.GOOS {
	case "windows":
		// rundll32 + url.dll 在 Windows 7 上比 cmd /c start 稳定
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		return exec.Command("open", target)
	default:
		return exec.Command("xdg-open", target)
	}
}

// OpenBrowser 打开默认浏览器
func OpenBrowser(url string) error {
	return opener(url).Start()
}

// OpenBrowserWithFallback 主要方式失败时尝试备选方式
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", url).Start()
	case "linux":
		browsers := []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"}
		for _, browser := range browsers {
			if err := exec.Command(browser, url).Start(); err == nil {
				return nil
			}
		}
	}

	return err
}

// OpenFolder 在系统文件管理器中打开目录
func OpenFolder(dir string) error {
	if runtime.GOOS == "windows" {
		return exec.Command("explorer", dir).Start()
	}
	return opener(dir).Start()
}
