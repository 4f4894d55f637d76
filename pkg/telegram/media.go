package telegram

import (
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gotd/td/tg"

	"tgdownloader/pkg/models"
)

// LocationFetcher turns a file location into a fetch function
type LocationFetcher func(loc tg.InputFileLocationClass) models.FetchFunc

const photoExt = ".jpg"

var videoExtensions = map[string]string{
	"video/mp4":        ".mp4",
	"video/quicktime":  ".mov",
	"video/x-matroska": ".mkv",
	"video/webm":       ".webm",
	"video/mpeg":       ".mpeg",
	"video/x-msvideo":  ".avi",
	"video/3gpp":       ".3gp",
}

// MapMessage converts a raw message into a media descriptor. ok is false for
// messages without a photo or video.
func MapMessage(msg *tg.Message, fetch LocationFetcher) (models.Message, bool) {
	if msg == nil || msg.Media == nil {
		return models.Message{}, false
	}

	out := models.Message{
		ID:   msg.ID,
		Date: time.Unix(int64(msg.Date), 0),
	}
	if groupID, ok := msg.GetGroupedID(); ok {
		out.GroupID = strconv.FormatInt(groupID, 10)
	}

	var loc tg.InputFileLocationClass
	switch media := msg.Media.(type) {
	case *tg.MessageMediaPhoto:
		photo, ok := media.Photo.(*tg.Photo)
		if !ok {
			return models.Message{}, false
		}
		thumb, size, ok := largestPhotoSize(photo.Sizes)
		if !ok {
			return models.Message{}, false
		}
		out.Type = models.MediaPhoto
		out.Ext = photoExt
		out.Size = size
		loc = &tg.InputPhotoFileLocation{
			ID:            photo.ID,
			AccessHash:    photo.AccessHash,
			FileReference: photo.FileReference,
			ThumbSize:     thumb,
		}

	case *tg.MessageMediaDocument:
		doc, ok := media.Document.(*tg.Document)
		if !ok || !isVideo(doc) {
			return models.Message{}, false
		}
		out.Type = models.MediaVideo
		out.FileName = documentFileName(doc)
		out.Ext = videoExt(out.FileName, doc.MimeType)
		out.Size = doc.Size
		loc = doc.AsInputDocumentFileLocation()

	default:
		return models.Message{}, false
	}

	if fetch != nil {
		out.Fetch = fetch(loc)
	}
	return out, true
}

// isVideo is true for documents with a video attribute, excluding GIF-style
// animations. Round videos count as videos.
func isVideo(doc *tg.Document) bool {
	video := false
	for _, attr := range doc.Attributes {
		switch attr.(type) {
		case *tg.DocumentAttributeVideo:
			video = true
		case *tg.DocumentAttributeAnimated:
			return false
		}
	}
	return video
}

func documentFileName(doc *tg.Document) string {
	for _, attr := range doc.Attributes {
		if a, ok := attr.(*tg.DocumentAttributeFilename); ok {
			return a.FileName
		}
	}
	return ""
}

// videoExt prefers the original file's extension, then the mime type
func videoExt(fileName, mimeType string) string {
	if ext := filepath.Ext(fileName); ext != "" && ext != fileName {
		return strings.ToLower(ext)
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if ext, ok := videoExtensions[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// largestPhotoSize picks the size with the most pixels. Stripped and cached
// previews are ignored.
func largestPhotoSize(sizes []tg.PhotoSizeClass) (thumb string, size int64, ok bool) {
	best := -1
	for _, s := range sizes {
		switch sz := s.(type) {
		case *tg.PhotoSize:
			if area := sz.W * sz.H; area > best {
				best, thumb, size = area, sz.Type, int64(sz.Size)
			}
		case *tg.PhotoSizeProgressive:
			if area := sz.W * sz.H; area > best {
				best, thumb, size = area, sz.Type, 0
				if n := len(sz.Sizes); n > 0 {
					size = int64(sz.Sizes[n-1])
				}
			}
		}
	}
	return thumb, size, best >= 0
}
