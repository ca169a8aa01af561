// Package wal 提供 append-only 的 JSON lines 日誌，
// 記憶體帳本靠它在重啟後重放已提交的轉帳。
package wal

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
)

// FileModeReadOnly rw-r--r--，擁有者讀寫、其他人唯讀
const FileModeReadOnly fs.FileMode = 0644

type WAL struct {
	file *os.File
	mu   sync.Mutex
}

// Open 開啟或建立 WAL 檔案
// O_APPEND 每次寫入自動跳到檔尾；O_CREATE 檔案不存在時建立
func Open(path string) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileModeReadOnly)
	if err != nil {
		return nil, err
	}
	return &WAL{file: file}, nil
}

// Append 寫入一筆資料並立即刷入硬碟
// fsync 成功前不得視為已提交
func (w *WAL) Append(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := json.NewEncoder(w.file).Encode(v); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close 關閉檔案
func (w *WAL) Close() error {
	return w.file.Close()
}

// ReadAll 從頭讀取所有紀錄，逐筆交給 callback
// 逐筆處理可以避免一次將整個日誌載入記憶體
func (w *WAL) ReadAll(callback func(jsonRaw []byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(w.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
	return nil
}
