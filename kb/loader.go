package kb

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalsfoundry/orbitviz/model"
)

// Catalog is a small summary of what was loaded from JSON. It's mainly
// useful for logging from main().
type Catalog struct {
	ObjectIDs []string
}

// internal JSON shapes - kept unexported so we're free to evolve them.
type catalogJSON struct {
	Objects []trackedObjectJSON `json:"objects"`
}

type trackedObjectJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NoradID  uint32 `json:"norad_id"`
	TLELine1 string `json:"tle_line1"`
	TLELine2 string `json:"tle_line2"`
}

// LoadCatalog reads a JSON catalog of tracked objects from r and registers
// them with the session. Objects carrying both TLE lines are marked for TLE
// propagation; anything else waits for uploaded samples.
func LoadCatalog(s *Session, r io.Reader) (*Catalog, error) {
	if s == nil {
		return nil, fmt.Errorf("LoadCatalog: session is nil")
	}

	var payload catalogJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadCatalog: decode failed: %w", err)
	}

	result := &Catalog{ObjectIDs: make([]string, 0, len(payload.Objects))}
	for _, jsObj := range payload.Objects {
		if jsObj.ID == "" {
			return nil, fmt.Errorf("LoadCatalog: object with empty id")
		}

		source := model.OrbitSourceUpload
		if jsObj.TLELine1 != "" && jsObj.TLELine2 != "" {
			source = model.OrbitSourceTLE
		}

		obj := &model.TrackedObject{
			ID:       jsObj.ID,
			Name:     jsObj.Name,
			Source:   source,
			TLELine1: jsObj.TLELine1,
			TLELine2: jsObj.TLELine2,
			NoradID:  jsObj.NoradID,
		}
		if err := s.AddObject(obj); err != nil {
			return nil, fmt.Errorf("LoadCatalog: %w", err)
		}
		result.ObjectIDs = append(result.ObjectIDs, jsObj.ID)
	}

	return result, nil
}
