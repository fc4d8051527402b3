package services

// Broadcaster tells connected board clients that a project changed and should
// be refetched. Delivery is best effort.
//
// Disconnect and CloseProject drop subscriptions whose reader lost access, so
// a feed never outlives the membership it was opened under.
type Broadcaster interface {
	BroadcastRefresh(projectID, reason string)
	Disconnect(projectID, userID string)
	CloseProject(projectID string)
}

type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastRefresh(string, string) {}

func (NoopBroadcaster) Disconnect(string, string) {}

func (NoopBroadcaster) CloseProject(string) {}
