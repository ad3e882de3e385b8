package domain

// SubjectType differentiates requester vs mentor tokens.
type SubjectType string

const (
	SubjectTypeUser   SubjectType = "USER"
	SubjectTypeMentor SubjectType = "MENTOR"
)
