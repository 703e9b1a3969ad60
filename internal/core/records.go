package core

// MRReviewLog is one persisted merge/pull request review outcome.
type MRReviewLog struct {
	ID             int64  `db:"id" json:"id"`
	ProjectName    string `db:"project_name" json:"project_name"`
	Author         string `db:"author" json:"author"`
	SourceBranch   string `db:"source_branch" json:"source_branch"`
	TargetBranch   string `db:"target_branch" json:"target_branch"`
	UpdatedAt      int64  `db:"updated_at" json:"updated_at"`
	CommitMessages string `db:"commit_messages" json:"commit_messages"`
	Score          int    `db:"score" json:"score"`
	URL            string `db:"url" json:"url"`
	ReviewResult   string `db:"review_result" json:"review_result"`
}

// PushReviewLog is one persisted push review outcome.
type PushReviewLog struct {
	ID             int64  `db:"id" json:"id"`
	ProjectName    string `db:"project_name" json:"project_name"`
	Author         string `db:"author" json:"author"`
	Branch         string `db:"branch" json:"branch"`
	UpdatedAt      int64  `db:"updated_at" json:"updated_at"`
	CommitMessages string `db:"commit_messages" json:"commit_messages"`
	Score          int    `db:"score" json:"score"`
	ReviewResult   string `db:"review_result" json:"review_result"`
}
