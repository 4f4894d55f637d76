package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"tgdownloader/pkg/config"
)

const notificationTitle = "Telegram Downloader"

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// WindowsNotificationSender sends notifications on Windows using PowerShell
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
		$text = $template.GetElementsByTagName("text")
		$text.Item(0).AppendChild($template.CreateTextNode('%s')) | Out-Null
		$text.Item(1).AppendChild($template.CreateTextNode('%s')) | Out-Null
		$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('%s').Show($toast)
	`, psQuote(title), psQuote(message), notificationTitle)

	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}

func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Notifier sends desktop notifications when a run ends
type Notifier struct {
	cfg    config.NotificationConfig
	sender NotificationSender
}

// NewNotifier creates a Notifier for the current platform
func NewNotifier(cfg config.NotificationConfig) *Notifier {
	var sender NotificationSender

	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	case "windows":
		sender = &WindowsNotificationSender{}
	}

	return NewNotifierWithSender(cfg, sender)
}

// NewNotifierWithSender creates a Notifier over an explicit sender
func NewNotifierWithSender(cfg config.NotificationConfig, sender NotificationSender) *Notifier {
	return &Notifier{cfg: cfg, sender: sender}
}

// Complete announces a finished run
func (n *Notifier) Complete(message string) error {
	if n == nil || !n.cfg.OnComplete {
		return nil
	}
	return n.send(message)
}

// Failure announces a run that stopped on an error
func (n *Notifier) Failure(message string) error {
	if n == nil || !n.cfg.OnError {
		return nil
	}
	return n.send(message)
}

func (n *Notifier) send(message string) error {
	if !n.cfg.Enabled || n.sender == nil {
		return nil
	}
	return n.sender.Send(notificationTitle, message)
}
