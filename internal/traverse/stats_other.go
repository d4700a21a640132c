//go:build !linux

package traverse

func applyPlatformStats(*Stats, any) {}
