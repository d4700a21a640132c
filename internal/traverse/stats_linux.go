//go:build linux

package traverse

import (
	"syscall"
	"time"
)

func applyPlatformStats(stats *Stats, system any) {
	statRecord, ok := system.(*syscall.Stat_t)
	if !ok || statRecord == nil {
		return
	}
	stats.Device = uint64(statRecord.Dev)
	stats.Inode = uint64(statRecord.Ino)
	stats.Links = uint64(statRecord.Nlink)
	stats.UserID = statRecord.Uid
	stats.GroupID = statRecord.Gid
	stats.BlockSize = int64(statRecord.Blksize)
	stats.Blocks = int64(statRecord.Blocks)
	stats.AccessTime = time.Unix(statRecord.Atim.Unix())
	stats.ChangeTime = time.Unix(statRecord.Ctim.Unix())
}
