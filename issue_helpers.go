package orgmodel

// IssueAt creates an Issue at the given path with the provided code and
// structural context. It is a convenience helper for call sites that build
// issues outside a PathRef chain.
func IssueAt(p PathRef, code string, kind Kind, field string) Issue {
	return p.Issue(code, Issue{Kind: kind, Field: field})
}

func singleIssue(code string, ctx Issue) Issues {
	return AppendIssues(nil, Root().Issue(code, ctx))
}
