package observer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var bailRE = regexp.MustCompile(`[^\w.$]`)

// KeyGetter is anything a dotted path can be resolved against.
type KeyGetter interface {
	Get(key string) any
}

func (sys *System) parsePath(path string) ([]string, error) {
	if path == "" || bailRE.MatchString(path) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	h := xxhash.Sum64String(path)
	if segments, ok := sys.paths[h]; ok {
		return segments, nil
	}
	segments := strings.Split(path, ".")
	sys.paths[h] = segments
	return segments, nil
}

// PathGetter compiles a dotted path such as "a.b.c" into a getter reading
// it from root. Reads of each segment are tracked like any other read.
// Segments that do not resolve to a KeyGetter yield nil.
func (sys *System) PathGetter(root KeyGetter, path string) (func() any, error) {
	segments, err := sys.parsePath(path)
	if err != nil {
		return nil, err
	}
	return func() any {
		var cur any = root
		for _, seg := range segments {
			g, ok := cur.(KeyGetter)
			if !ok || g == nil {
				return nil
			}
			cur = g.Get(seg)
		}
		return cur
	}, nil
}
