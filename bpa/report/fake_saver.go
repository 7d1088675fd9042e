package report

import "context"

// FakeSaver captures the document handed to SaveReport so tests can
// inspect what a run would have written.
type FakeSaver struct {
	Path     string
	Document []byte
	Err      error
	Calls    int
}

func (f *FakeSaver) SaveReport(ctx context.Context, path string, document []byte) error {
	f.Calls++
	if f.Err != nil {
		return f.Err
	}

	f.Path = path
	f.Document = append([]byte(nil), document...)
	return nil
}
