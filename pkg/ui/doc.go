// Package ui renders the interactive terminal: styled messages, option and
// summary panels, a progress bar reporter for the downloader and line
// prompts for the login and option questions.
package ui
