package model

// MigrateAble is array of model instance, use for migrating database
var MigrateAble []interface{}

func init() {
	MigrateAble = append(
		MigrateAble,
		&User{},
		&Skill{},
		&Job{},
		&JobSkill{},
		&Candidate{},
		&CandidateSkill{},
		&Experience{},
		&Education{},
		&Document{},
		&Application{},
		&ApplicationDocument{},
		&Interview{},
	)
}
