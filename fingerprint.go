package sqlpage

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// countCacheKey fingerprints the count form of a statement call. It depends
// on the statement identity and the shape of the parameter only, never on
// parameter values or on the page requested.
func countCacheKey(ms *MappedStatement, parameter any) string {
	d := xxhash.New()
	d.WriteString(ms.ID)
	d.WriteString("\x00")
	d.WriteString(parameterShape(parameter))
	d.WriteString("\x00")
	d.WriteString(strconv.Itoa(DefaultRowBounds.Offset))
	d.WriteString(":")
	d.WriteString(strconv.Itoa(DefaultRowBounds.Limit))
	d.WriteString("\x00")
	d.WriteString(countSuffix)
	return ms.ID + countSuffix + ":" + strconv.FormatUint(d.Sum64(), 16)
}

func parameterShape(parameter any) string {
	switch p := parameter.(type) {
	case nil:
		return "nil"
	case map[string]any:
		keys := make([]string, 0, len(p))
		for key := range p {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		shape := "map{"
		for i, key := range keys {
			if i > 0 {
				shape += ","
			}
			shape += fmt.Sprintf("%s:%T", key, p[key])
		}
		return shape + "}"
	default:
		return fmt.Sprintf("%T", parameter)
	}
}
