//go:build !linux

package selection

const needsSettle = false

func primaryReader() Reader { return nil }
