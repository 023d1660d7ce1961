// Package policy implements the channel access rules. The whole rule set
// lives in one decision table so there is a single source of truth for who
// may read and who may write each kind of channel.
package policy

import (
	"log/slog"

	"tsudoi/internal/middleware"
	"tsudoi/internal/models"
	"tsudoi/internal/observability"
)

// Decision is the result of evaluating a channel type against a role.
type Decision struct {
	CanView bool `json:"can_view"`
	CanPost bool `json:"can_post"`
}

// audience is a predicate over roles.
type audience func(models.Role) bool

func everyone(models.Role) bool { return true }

// members is everyone except trial participants.
func members(r models.Role) bool { return r != models.RoleTrial }

// staff is the server admin plus the two instructor roles.
func staff(r models.Role) bool { return r.IsAdmin() || r.IsInstructor() }

// class1Circle is staff plus Class1 members.
func class1Circle(r models.Role) bool { return staff(r) || r == models.RoleClass1Member }

type rule struct {
	view audience
	post audience
}

// rules is the decision table. Every row keeps the invariant that the post
// audience is a subset of the view audience.
var rules = map[models.ChannelType]rule{
	models.ChannelTypeAllPostAllView:           {view: everyone, post: members},
	models.ChannelTypeAdminOnlyAllView:         {view: everyone, post: staff},
	models.ChannelTypeInstructorsPostAllView:   {view: everyone, post: staff},
	models.ChannelTypeAdminOnlyInstructorsView: {view: staff, post: staff},
	models.ChannelTypeClass1PostClass1View:     {view: class1Circle, post: class1Circle},
}

// Evaluate maps a channel type and a role to view/post permissions. It is
// total: an unrecognized channel type denies both permissions instead of
// failing, because a persisted unknown value is a configuration problem and
// not the requester's fault. Such evaluations are logged and counted so
// operators can tell them apart from ordinary denials.
func Evaluate(channelType models.ChannelType, role models.Role) Decision {
	r, ok := rules[channelType]
	if !ok {
		observability.PolicyUnknownChannelType.WithLabelValues(string(channelType)).Inc()
		middleware.Logger.Warn("policy: unknown channel type, denying access",
			slog.String("channel_type", string(channelType)),
			slog.String("role", string(role)),
		)
		return Decision{}
	}
	return Decision{
		CanView: r.view(role),
		CanPost: r.post(role),
	}
}

// CanView reports whether role may read channels of the given type.
func CanView(channelType models.ChannelType, role models.Role) bool {
	return Evaluate(channelType, role).CanView
}

// CanPost reports whether role may write to channels of the given type.
func CanPost(channelType models.ChannelType, role models.Role) bool {
	return Evaluate(channelType, role).CanPost
}
