package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// ArchetypeInfo is the static report blurb for one archetype.
type ArchetypeInfo struct {
	Title      string   `json:"title"`
	Motto      string   `json:"motto"`
	CoreDesire string   `json:"core_desire"`
	Goal       string   `json:"goal"`
	Strategy   string   `json:"strategy"`
	Shadow     string   `json:"shadow"`
	Vocabulary []string `json:"vocabulary"`
}

// LoadArchetypeInfo reads the per-archetype report blurbs keyed by the
// canonical English archetype name. Missing entries degrade to a shorter
// report, not an error.
func LoadArchetypeInfo(path string) (map[string]ArchetypeInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetype info: %w", err)
	}

	var info map[string]ArchetypeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("unmarshal archetype info: %w", err)
	}

	return info, nil
}
