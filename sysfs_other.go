//go:build !linux

package freqlat

// DescribeCores is only implemented on Linux.
func (s Sysfs) DescribeCores() ([]CoreInfo, error) {
	return nil, ErrUnsupportedPlatform
}
