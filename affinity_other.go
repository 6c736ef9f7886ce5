//go:build !linux

package freqlat

// PinToCore is only implemented on Linux.
func PinToCore(coreID int) (unpin func(), err error) {
	return nil, ErrUnsupportedPlatform
}
