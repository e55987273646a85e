package domain

import "time"

// ElectionStatus is the lifecycle state of an election, derived from the
// voting window against wall-clock time
type ElectionStatus string

const (
	ElectionUpcoming  ElectionStatus = "UPCOMING"
	ElectionOngoing   ElectionStatus = "ONGOING"
	ElectionCompleted ElectionStatus = "COMPLETED"
)

// VoterRestriction gates which user classifications may vote in an election
type VoterRestriction string

const (
	RestrictionAll             VoterRestriction = "ALL"
	RestrictionStudents        VoterRestriction = "STUDENTS"
	RestrictionFaculty         VoterRestriction = "FACULTY"
	RestrictionNonTeaching     VoterRestriction = "NON_TEACHING"
	RestrictionStudentsFaculty VoterRestriction = "STUDENTS_FACULTY"
)

// Valid reports whether the restriction is a known category
func (r VoterRestriction) Valid() bool {
	switch r {
	case RestrictionAll, RestrictionStudents, RestrictionFaculty,
		RestrictionNonTeaching, RestrictionStudentsFaculty:
		return true
	}
	return false
}

// Allows reports whether a voter of the given classification satisfies the
// restriction. Unknown restrictions or user types never pass.
func (r VoterRestriction) Allows(t UserType) bool {
	switch r {
	case RestrictionAll:
		return t.Valid()
	case RestrictionStudents:
		return t == UserTypeStudent
	case RestrictionFaculty:
		return t == UserTypeFaculty
	case RestrictionNonTeaching:
		return t == UserTypeNonTeaching
	case RestrictionStudentsFaculty:
		return t == UserTypeStudent || t == UserTypeFaculty
	}
	return false
}

// CandidateStatus is the approval state of a candidacy application
type CandidateStatus string

const (
	CandidatePending  CandidateStatus = "PENDING"
	CandidateApproved CandidateStatus = "APPROVED"
	CandidateRejected CandidateStatus = "REJECTED"
)

// Election identifies a voting event with its campaign and voting windows
type Election struct {
	ID            int              `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	CampaignStart *time.Time       `json:"campaign_start,omitempty"`
	CampaignEnd   *time.Time       `json:"campaign_end,omitempty"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	Restriction   VoterRestriction `json:"voter_restriction"`
	Status        ElectionStatus   `json:"status"`
	IsOfficial    bool             `json:"is_official"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// DeriveStatus computes the lifecycle status from the voting window. The
// boundary instants of the window count as ONGOING. An election already
// certified official stays COMPLETED regardless of the clock.
func (e *Election) DeriveStatus(now time.Time) ElectionStatus {
	if e.IsOfficial {
		return ElectionCompleted
	}
	if now.Before(e.StartDate) {
		return ElectionUpcoming
	}
	if now.After(e.EndDate) {
		return ElectionCompleted
	}
	return ElectionOngoing
}

// Position is a contested seat within an election. WinnerCount is the exact
// number of distinct candidates a voter must select, unless they abstain.
type Position struct {
	ID          int    `json:"id"`
	ElectionID  int    `json:"election_id"`
	Title       string `json:"title"`
	WinnerCount int    `json:"winner_count"`
}

// Candidate is an approved application to run for one position. Only
// candidates with status APPROVED and an active flag may receive votes.
type Candidate struct {
	ID         int             `json:"id"`
	UserID     string          `json:"user_id"`
	PositionID int             `json:"position_id"`
	ElectionID int             `json:"election_id"`
	Name       string          `json:"name"`
	ImageURL   string          `json:"image_url,omitempty"`
	Status     CandidateStatus `json:"status"`
	IsActive   bool            `json:"is_active"`
}

// Votable reports whether the candidate may receive votes
func (c *Candidate) Votable() bool {
	return c.Status == CandidateApproved && c.IsActive
}

// PositionBallot is one position with its votable candidates, as presented on
// the ballot paper
type PositionBallot struct {
	Position
	Candidates []Candidate `json:"candidates"`
}

// ElectionDetail is an election with its full ballot paper
type ElectionDetail struct {
	Election
	Positions []PositionBallot `json:"positions"`
}
