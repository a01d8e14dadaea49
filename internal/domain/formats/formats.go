package formats

import (
	"fmt"
	"strings"

	"github.com/forPelevin/reelcut/internal/types"
)

// Select picks the encoded format to materialize: the highest resolution not
// above maxHeight in the target container. Among equal heights the first one
// in service order wins, which keeps the choice stable across runs.
func Select(fmts []types.Format, maxHeight int, container string) (types.Format, error) {
	best := -1
	for i, f := range fmts {
		if f.Height <= 0 || f.Height > maxHeight {
			continue
		}
		if container != "" && !strings.EqualFold(f.Ext, container) {
			continue
		}
		if f.VCodec == "" || f.VCodec == "none" {
			continue
		}
		if best < 0 || f.Height > fmts[best].Height {
			best = i
		}
	}
	if best < 0 {
		return types.Format{}, fmt.Errorf("%w: no %s stream at or below %dp", types.ErrNoEligibleFormat, container, maxHeight)
	}
	return fmts[best], nil
}
