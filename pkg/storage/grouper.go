package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"tgdownloader/pkg/models"
)

// Placement is where a message belongs: its chat folder or an album folder
type Placement struct {
	Standalone bool
	GroupID    string
}

// Classify decides placement from the group id the client attached to the message
func Classify(msg models.Message) Placement {
	if !msg.IsGrouped() {
		return Placement{Standalone: true}
	}
	return Placement{GroupID: msg.GroupID}
}

// Grouper places messages into chat and album folders under a base directory.
// It is used from a single goroutine.
type Grouper struct {
	baseDir string
	groups  map[string]*models.AlbumGroup
	order   []string
	created map[string]bool
}

// NewGrouper creates a grouper rooted at baseDir
func NewGrouper(baseDir string) *Grouper {
	return &Grouper{
		baseDir: baseDir,
		groups:  make(map[string]*models.AlbumGroup),
		created: make(map[string]bool),
	}
}

// ChatDir is the folder standalone media and the ledger of chatName go in
func (g *Grouper) ChatDir(chatName string) string {
	return filepath.Join(g.baseDir, chatName)
}

// FolderFor is a pure function of chatName and the message's group id
func (g *Grouper) FolderFor(msg models.Message, chatName string) string {
	p := Classify(msg)
	if p.Standalone {
		return g.ChatDir(chatName)
	}
	return filepath.Join(g.ChatDir(chatName), groupFolderName(p.GroupID))
}

// Prepare returns the folder for msg, creating it before anything is written there.
// Album membership is recorded in arrival order.
func (g *Grouper) Prepare(msg models.Message, chatName string) (string, error) {
	dir := g.FolderFor(msg, chatName)

	if !g.created[dir] {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create folder %s: %w", dir, err)
		}
		g.created[dir] = true
	}

	if msg.IsGrouped() {
		group, ok := g.groups[msg.GroupID]
		if !ok {
			group = &models.AlbumGroup{GroupID: msg.GroupID, Folder: dir}
			g.groups[msg.GroupID] = group
			g.order = append(g.order, msg.GroupID)
		}
		if !slices.Contains(group.MessageIDs, msg.ID) {
			group.MessageIDs = append(group.MessageIDs, msg.ID)
		}
	}

	return dir, nil
}

// Groups returns the albums seen so far, ordered by first appearance
func (g *Grouper) Groups() []models.AlbumGroup {
	out := make([]models.AlbumGroup, 0, len(g.order))
	for _, id := range g.order {
		group := *g.groups[id]
		group.MessageIDs = slices.Clone(group.MessageIDs)
		out = append(out, group)
	}
	return out
}

func groupFolderName(groupID string) string {
	return "group_" + invalidNameChars.ReplaceAllString(groupID, "_")
}
