package coords

import (
	"strings"

	"github.com/madmaxpython/DeepOF-SIT/internal/geometry"
)

// DefaultVideoMarker separates the recording name from the tracker suffix in
// video and table file names, e.g. "Mouse1_SIT.1DLC_resnet50_shuffle1".
const DefaultVideoMarker = "DLC"

// CleanName returns the recording name of a video: the text before the first marker.
// An empty marker leaves the name unchanged.
func CleanName(video, marker string) string {
	if marker == "" {
		return video
	}
	name, _, _ := strings.Cut(video, marker)
	return name
}

// MatchParamsToVideos pairs videos with arena and zone quads by position.
// Pairing stops at the shorter list. A shared zone quad applies to every video.
// Both maps are keyed by the cleaned recording name.
func MatchParamsToVideos(videos []string, arena, siz ParamSet, marker string) (map[string]geometry.Quad, map[string]geometry.Quad) {
	arenaMap := make(map[string]geometry.Quad, len(videos))
	sizMap := make(map[string]geometry.Quad, len(videos))

	for i, video := range videos {
		name := CleanName(video, marker)
		if q, ok := pick(arena, i); ok {
			arenaMap[name] = q
		}
		if q, ok := pick(siz, i); ok {
			sizMap[name] = q
		}
	}

	return arenaMap, sizMap
}

func pick(ps ParamSet, i int) (geometry.Quad, bool) {
	if ps.Shared && len(ps.Quads) == 1 {
		return ps.Quads[0], true
	}
	if i < len(ps.Quads) {
		return ps.Quads[i], true
	}
	return geometry.Quad{}, false
}
