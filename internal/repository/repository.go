package repository

import "github.com/jmoiron/sqlx"

type Repos struct {
	Readings  *ReadingRepo
	Summaries *SummaryRepo
}

func New(db *sqlx.DB) *Repos {
	return &Repos{
		Readings:  &ReadingRepo{db: db},
		Summaries: &SummaryRepo{db: db},
	}
}
