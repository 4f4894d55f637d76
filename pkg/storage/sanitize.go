package storage

import (
	"regexp"
	"strings"

	"tgdownloader/pkg/models"
)

const (
	maxFolderNameLength = 80
	maxFileNameLength   = 120
	fallbackFolderName  = "chat"
)

var (
	invalidNameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
)

// SanitizeName makes a chat label safe to use as a folder name.
// Invalid characters become underscores, whitespace runs collapse to one
// space, and the result is cut to 80 runes. A result that is empty or only
// dots becomes "chat" so it cannot name the current or parent directory.
func SanitizeName(name string) string {
	name = cleanName(name)
	name = truncateRunes(name, maxFolderNameLength)
	name = strings.TrimSpace(name)
	if strings.Trim(name, ".") == "" {
		return fallbackFolderName
	}
	return name
}

// ChatFolderName is the folder a chat's media and ledger live in
func ChatFolderName(chat models.Chat) string {
	return SanitizeName(chat.DisplayName())
}

// SanitizeFileName cleans an original document name while keeping its extension
func SanitizeFileName(name string) string {
	name = trailingDots.ReplaceAllString(cleanName(name), "")
	if name == "" {
		return ""
	}

	runes := []rune(name)
	if len(runes) <= maxFileNameLength {
		return name
	}
	ext := []rune(extOf(name))
	if len(ext) >= maxFileNameLength {
		return string(runes[:maxFileNameLength])
	}
	stem := runes[:len(runes)-len(ext)]
	return strings.TrimSpace(string(stem[:maxFileNameLength-len(ext)])) + string(ext)
}

func cleanName(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = whitespaceRuns.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// extOf returns the extension including the dot, ignoring dotfiles like ".env"
func extOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}
