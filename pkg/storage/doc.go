// Package storage decides where downloaded media lands on disk.
//
// The Grouper maps a message to its chat folder, or to a group_<id>
// subfolder when the message belongs to an album, and creates that folder
// before the first file is written. The Allocator hands out msg_<id> file
// names that never collide with files already on disk or with names issued
// earlier in the same run. WriteFile streams a fetch into a .part file and
// renames it into place only once every byte has been written.
//
// Usage:
//
//	grouper := storage.NewGrouper(cfg.Output.BaseDirectory)
//	allocator := storage.NewAllocator()
//
//	dir, err := grouper.Prepare(msg, storage.ChatFolderName(chat))
//	if err != nil {
//	    return err
//	}
//	path, err := allocator.Allocate(dir, msg)
//	if err != nil {
//	    return err
//	}
//	_, err = storage.WriteFile(ctx, path, msg.Fetch)
package storage
