package models

// Job is one season or event; every schedule belongs to exactly one job.
type Job struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Season    string `db:"season" json:"season"`
	Year      string `db:"year" json:"year"`
	SportName string `db:"sport_name" json:"sportName"`
}

// Division is a read model joining a division with its agegroup and team count.
type Division struct {
	ID            string `db:"id" json:"id"`
	JobID         string `db:"job_id" json:"jobId"`
	AgegroupID    string `db:"agegroup_id" json:"agegroupId"`
	AgegroupName  string `db:"agegroup_name" json:"agegroupName"`
	AgegroupColor string `db:"agegroup_color" json:"agegroupColor"`
	Name          string `db:"name" json:"name"`
	TeamCount     int    `db:"team_count" json:"teamCount"`
}

// Team is a rostered team with its seed rank inside its division.
type Team struct {
	ID         string `db:"id" json:"id"`
	DivisionID string `db:"division_id" json:"divisionId"`
	Name       string `db:"name" json:"name"`
	DivRank    int    `db:"div_rank" json:"divRank"`
}

// Field is a playing field.
type Field struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
