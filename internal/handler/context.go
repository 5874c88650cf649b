package handler

type ContextKey string

var (
	ActorCtxKey        ContextKey = "actor"
	AssignmentIDCtxKey ContextKey = "assignmentID"
)
