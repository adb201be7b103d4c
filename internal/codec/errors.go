package codec

import "errors"

// The five error kinds a caller of ReadItems/WriteItems can distinguish via
// errors.Is. Each is wrapped with additional context using fmt.Errorf's %w
// at the point it is raised.
var (
	// ErrTruncatedInput means a read ran past the end of the supplied buffer.
	ErrTruncatedInput = errors.New("codec: truncated input")

	// ErrMalformedHeader means a path/spec length or count produced
	// nonsense (e.g. an empty spec string).
	ErrMalformedHeader = errors.New("codec: malformed header")

	// ErrUnknownSpec means the column registry returned no codec for a
	// leaf spec encountered on read.
	ErrUnknownSpec = errors.New("codec: unknown type spec")

	// ErrUnencodableValue means a write-side value could not be coerced
	// into its inferred spec. This should not arise if inference and
	// array preprocessing agree with each other.
	ErrUnencodableValue = errors.New("codec: unencodable value")

	// ErrUnsupportedBranch means a shared-paths sub-branch was
	// encountered on read while the caller's Profile requested strict
	// mode. In non-strict mode this branch is logged and skipped instead.
	ErrUnsupportedBranch = errors.New("codec: unsupported shared-paths branch")
)
