package team

import "fmt"

// UnknownManager is the sentinel for fixtures where the provider omits
// the manager name.
const UnknownManager = "Unknown"

// Team is a real football club. Teams recur across matches and are
// upserted by identifier so the table never holds duplicates.
type Team struct {
	ID          int64
	Name        string
	CountryName string
	ManagerName string
	Competition string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}
