package shortener

import "github.com/jaevor/go-nanoid"

// DefaultCodeLength is the length of generated short codes.
const DefaultCodeLength = 7

// CodeGenerator produces candidate short codes. It guarantees nothing about
// uniqueness; LinkStore.Create is the uniqueness gate.
type CodeGenerator func() Code

// NewCodeGenerator returns a generator drawing codes of the given length from
// the URL-safe alphabet (A-Za-z0-9_-), case-sensitive.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	gen, err := nanoid.Standard(length)
	if err != nil {
		return nil, err
	}

	return func() Code {
		return Code(gen())
	}, nil
}

// ValidCustomCode reports whether a caller-supplied code satisfies the length
// and character set constraints. The code is otherwise passed through unchanged.
func ValidCustomCode(code Code) bool {
	if len(code) < 3 || len(code) > 32 {
		return false
	}

	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}

	return true
}
