package confloader

import "errors"

var (
	// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
	ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

	// ErrReadNotSupported is returned when Read is called on a bytes provider.
	ErrReadNotSupported = errors.New("confloader: Read not supported by bytes provider, use ReadBytes() instead")
)

// mapProvider serves an already parsed, nested map. koanf calls Read when
// no parser is given.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}

// bytesProvider serves raw document bytes for a parser.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) {
	return b, nil
}

func (b bytesProvider) Read() (map[string]any, error) {
	return nil, ErrReadNotSupported
}
