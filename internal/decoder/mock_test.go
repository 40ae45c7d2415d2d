package decoder

import "errors"

var errMockOutOfRange = errors.New("mock address out of range")

// mockMemory is a minimal read-only memory for testing.
type mockMemory struct {
	data []byte
}

func newMockMemory(size int) *mockMemory {
	return &mockMemory{
		data: make([]byte, size),
	}
}

func (m *mockMemory) Read(address uint16) (byte, error) {
	if int(address) >= len(m.data) {
		return 0, errMockOutOfRange
	}
	return m.data[address], nil
}
