//go:build windows

package watcher

import (
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// backend reads ReadDirectoryChangesW notifications for the whole tree
type backend struct {
	handle windows.Handle
}

// notifyFilter selects name changes of files; directories are not reported
const notifyFilter = windows.FILE_NOTIFY_CHANGE_FILE_NAME

// FILE_NOTIFY_INFORMATION actions that bring a file into the tree
const (
	actionAdded          = 1
	actionRenamedNewName = 5
)

func (w *Watcher) open() error {
	return nil
}

func (w *Watcher) watch(root string) error {
	name, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return err
	}
	handle, err := windows.CreateFile(
		name,
		windows.FILE_LIST_DIRECTORY,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return err
	}
	w.handle = handle
	return nil
}

func (w *Watcher) begin() {}

// loop blocks in ReadDirectoryChanges until release closes the handle
func (w *Watcher) loop() {
	buf := make([]byte, 64*1024)
	for {
		select {
		case <-w.done:
			return
		default:
		}

		var n uint32
		if err := windows.ReadDirectoryChanges(w.handle, &buf[0], uint32(len(buf)), true, notifyFilter, &n, nil, 0); err != nil {
			return
		}
		eachNotification(buf[:n], func(action uint32, name string) {
			if action == actionAdded || action == actionRenamedNewName {
				w.emit(filepath.Join(w.root, name))
			}
		})
	}
}

// eachNotification walks a FILE_NOTIFY_INFORMATION chain
func eachNotification(buf []byte, fn func(action uint32, name string)) {
	for len(buf) >= 12 {
		next := *(*uint32)(unsafe.Pointer(&buf[0]))
		action := *(*uint32)(unsafe.Pointer(&buf[4]))
		size := *(*uint32)(unsafe.Pointer(&buf[8]))

		if len(buf) >= 12+int(size) {
			name := windows.UTF16ToString(unsafe.Slice((*uint16)(unsafe.Pointer(&buf[12])), size/2))
			fn(action, name)
		}
		if next == 0 {
			return
		}
		buf = buf[next:]
	}
}

func (w *Watcher) release() error {
	if w.handle == 0 {
		return nil
	}
	// Unblock a pending read before closing
	_ = windows.CancelIoEx(w.handle, nil)
	return windows.CloseHandle(w.handle)
}
