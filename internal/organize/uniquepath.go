package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/franz/sfo/internal/util"
)

// maxCollisionProbes bounds the rename probe. A directory with ten thousand
// same-stemmed files is treated as a configuration problem, not a rename
// problem.
const maxCollisionProbes = 10000

// uniquePath returns a destination that does not yet exist, probing
// "stem_1", "stem_2", ... when the plain name is taken.
func uniquePath(dest string) (string, error) {
	if _, err := os.Lstat(dest); os.IsNotExist(err) {
		return dest, nil
	}

	dir := filepath.Dir(dest)
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(filepath.Base(dest), ext)

	for i := 1; i <= maxCollisionProbes; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", util.ErrCollisionExhausted, dest)
}
