package discovery

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// ProbeBytes is how much of a candidate fixture the content probe reads.
// 8KB matches git's binary-detection window and keeps the probe cost
// constant no matter how large the file is.
const ProbeBytes = 8192

// ProbeFixture reports whether the file at path plausibly holds a JSON
// document the encoder can batch: the probed prefix carries no NUL byte
// and its first non-whitespace byte opens an object. The real parse
// happens later, in `chjson encode`'s unmarshal stage; the probe only
// keeps obviously wrong files (binaries with a .json name, empty files,
// top-level arrays) out of the batch so one stray file does not turn a
// whole run into a partial failure.
func ProbeFixture(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("probing %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, ProbeBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("probing %s: %w", path, err)
	}
	if n == 0 {
		return false, nil
	}
	if bytes.IndexByte(buf[:n], 0) != -1 {
		return false, nil
	}

	head := bytes.TrimLeft(buf[:n], " \t\r\n")
	return len(head) > 0 && head[0] == '{', nil
}
