// file: internal/events/domain_events.go
package events

// Event types published by the tracker services
const (
	TypeUserRegistered  = "user.registered"
	TypeProjectCreated  = "project.created"
	TypeProjectUpdated  = "project.updated"
	TypeSprintCreated   = "sprint.created"
	TypeSprintJoined    = "sprint.joined"
	TypeSprintCompleted = "sprint.completed"
	TypeBacklogCreated  = "backlog.created"
	TypeBacklogUpdated  = "backlog.updated"
	TypeTaskCreated     = "task.created"
	TypeTaskUpdated     = "task.updated"
	TypeTaskCompleted   = "task.completed"
	TypeBadgeAwarded    = "achievement.badge_awarded"
)

// EntityEvent is the generic envelope for entity mutations. EntityType and
// EntityID land in the audit log; Metadata carries event-specific detail.
type EntityEvent struct {
	BaseEvent
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

// NewEntityEvent builds an entity mutation event for the given actor
func NewEntityEvent(eventType string, actorID int64, entityType, entityID string, metadata map[string]interface{}) *EntityEvent {
	actor := actorID
	return &EntityEvent{
		BaseEvent:  NewBaseEvent(eventType, &actor, metadata),
		EntityType: entityType,
		EntityID:   entityID,
	}
}

// BadgeAwardedEvent is published when the achievement engine unlocks a badge
type BadgeAwardedEvent struct {
	BaseEvent
	BadgeID string `json:"badge_id"`
}

// NewBadgeAwardedEvent builds a badge award event
func NewBadgeAwardedEvent(userID int64, badgeID string) *BadgeAwardedEvent {
	uid := userID
	return &BadgeAwardedEvent{
		BaseEvent: NewBaseEvent(TypeBadgeAwarded, &uid, map[string]interface{}{
			"badge_id": badgeID,
		}),
		BadgeID: badgeID,
	}
}
