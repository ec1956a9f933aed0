package service

import (
	"fmt"

	"notiyou/internal/model"
)

type Transition int

const (
	TransitionUnknown Transition = iota
	// TransitionAttach: supporter_id went from null to set.
	TransitionAttach
	// TransitionDetach: supporter_id went from set to null.
	TransitionDetach
)

func (t Transition) String() string {
	switch t {
	case TransitionAttach:
		return "attach"
	case TransitionDetach:
		return "detach"
	default:
		return "unknown"
	}
}

type Role string

const (
	RoleChallenger Role = "challenger"
	RoleSupporter  Role = "supporter"
)

// Template is a push title plus a body pattern taking the counterpart's name.
type Template struct {
	Title string
	Body  string
	Type  string
}

func (t Template) Message(token, name string) model.PushMessage {
	return model.PushMessage{
		Token: token,
		Title: t.Title,
		Body:  fmt.Sprintf(t.Body, name),
		Data:  map[string]string{"notification_type": t.Type},
	}
}

// SupporterTemplate returns the message a role receives for a relationship
// transition. ok is false for combinations that notify nobody.
func SupporterTemplate(t Transition, r Role) (Template, bool) {
	switch {
	case t == TransitionAttach && r == RoleChallenger:
		return Template{
			Title: "조력자 초대 알림",
			Body:  "%s님이 조력자 초대를 수락했습니다.",
			Type:  model.NotificationSupporterAccepted,
		}, true
	case t == TransitionDetach && r == RoleChallenger:
		return Template{
			Title: "조력자 해제 알림",
			Body:  "%s님이 조력자를 그만두었습니다.",
			Type:  model.NotificationSupporterDismissed,
		}, true
	case t == TransitionDetach && r == RoleSupporter:
		return Template{
			Title: "조력자 해제 알림",
			Body:  "%s님의 미션에서 해제되었습니다.",
			Type:  model.NotificationSupporterDismissed,
		}, true
	}
	return Template{}, false
}

// ClassifyTransition compares supporter_id before and after an update.
func ClassifyTransition(old, cur model.ChallengerSupporterRecord) Transition {
	before, after := old.Supporter(), cur.Supporter()
	switch {
	case before == "" && after != "":
		return TransitionAttach
	case before != "" && after == "":
		return TransitionDetach
	default:
		return TransitionUnknown
	}
}
