package experiment

import "strings"

// Default recording naming convention: "<animal>_SIT.<session>", e.g. "Mouse1_SIT.2".
const (
	DefaultSessionMarker    = "_SIT"
	DefaultSessionSeparator = "."
)

// NameParser splits a recording identifier into the animal identity shared by
// all sessions of a subject and the session label.
type NameParser func(recordingID string) (animalID, session string)

// DefaultNameParser applies the "<animal>_SIT.<session>" convention.
var DefaultNameParser NameParser = MarkerNameParser(DefaultSessionMarker, DefaultSessionSeparator)

// MarkerNameParser returns a NameParser where the identity is the text before
// the first marker and the session is the text after the last separator.
// When the marker is absent the whole identifier is the identity; when the
// separator is absent the whole identifier is the session.
func MarkerNameParser(marker, separator string) NameParser {
	return func(recordingID string) (string, string) {
		animalID := recordingID
		if marker != "" {
			animalID, _, _ = strings.Cut(recordingID, marker)
		}

		session := recordingID
		if separator != "" {
			if i := strings.LastIndex(recordingID, separator); i >= 0 {
				session = recordingID[i+len(separator):]
			}
		}
		return animalID, session
	}
}
