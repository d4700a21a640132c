package traverse

import (
	"io/fs"

	"github.com/spf13/afero"
)

// lookupStats stats the resolved path, following symbolic links.
// A failed lookup is reported to the caller, who treats it as missing metadata.
func lookupStats(fileSystem afero.Fs, fullName string) (*Stats, error) {
	fileInfo, statError := fileSystem.Stat(fullName)
	if statError != nil {
		return nil, statError
	}
	return statsFromFileInfo(fileInfo), nil
}

func statsFromFileInfo(fileInfo fs.FileInfo) *Stats {
	stats := &Stats{
		Size:             fileInfo.Size(),
		Mode:             fileInfo.Mode(),
		Permissions:      fileInfo.Mode().Perm().String(),
		ModificationTime: fileInfo.ModTime(),
	}
	applyPlatformStats(stats, fileInfo.Sys())
	return stats
}
