package model

import "encoding/json"

// UserPrefs is the singleton dashboard preferences record.
type UserPrefs struct {
	Theme         string `json:"theme"`
	DefaultView   string `json:"defaultView"`
	ItemsPerPage  int    `json:"itemsPerPage"`
	AutoSave      bool   `json:"autoSave"`
	Notifications bool   `json:"notifications"`
	Extra         Extra  `json:"-"`
}

// DefaultUserPrefs is returned when no preferences have been saved.
func DefaultUserPrefs() UserPrefs {
	return UserPrefs{
		Theme:         "light",
		DefaultView:   "grid",
		ItemsPerPage:  10,
		AutoSave:      true,
		Notifications: true,
	}
}

var prefsFields = []string{"theme", "defaultView", "itemsPerPage", "autoSave", "notifications"}

type prefsJSON UserPrefs

// MarshalJSON encodes the modeled fields plus any preserved extras.
func (p UserPrefs) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(prefsJSON(p))
	if err != nil {
		return nil, err
	}
	return mergeExtra(out, p.Extra)
}

// UnmarshalJSON decodes the modeled fields and keeps the rest in Extra.
func (p *UserPrefs) UnmarshalJSON(data []byte) error {
	var v prefsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, prefsFields)
	if err != nil {
		return err
	}
	v.Extra = extra
	*p = UserPrefs(v)
	return nil
}
