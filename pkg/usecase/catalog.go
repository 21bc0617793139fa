package usecase

import "github.com/gigbook/herald/pkg/domain/types"

type phrasing struct {
	title    string
	variants []string
}

// catalog holds the built-in wording. Placeholders are text/template fields
// over the match variables; absent variables render empty.
var catalog = map[types.RuleKey]phrasing{
	types.RuleInactivity: {
		title: "Welcome back",
		variants: []string{
			"It has been {{.days}} days since your last visit. A quick look keeps things on track.",
			"You have been away for {{.days}} days. Here is what changed while you were gone.",
			"{{.days}} days without a check-in. Take a minute to review your plans.",
		},
	},
	types.RuleInactivityCritical: {
		title: "Things may have slipped",
		variants: []string{
			"You have not checked in for {{.days}} days. Deadlines may have passed without you.",
			"It has been {{.days}} days since {{.last_seen}}. Time to catch up on your bookings.",
			"{{.days}} days away is a long time. Review what needs attention first.",
		},
	},
	types.RuleStaleScheduling: {
		title: "Close out {{.event}}",
		variants: []string{
			"{{.event}} was scheduled for {{.date}} but is still marked open. Mark it completed or cancelled.",
			"{{.event}} at {{.venue}} is in the past. Update its status to keep your calendar accurate.",
		},
	},
	types.RuleContractPending: {
		title: "Contract pending for {{.event}}",
		variants: []string{
			"{{.task}} is still pending and {{.event}} is only {{.days}} days away.",
			"{{.event}} on {{.date}} has no signed contract yet. Finish {{.task}} before the show.",
			"Do not play {{.event}} without paperwork: {{.task}} is still open.",
		},
	},
	types.RulePaymentPending: {
		title: "Payment pending for {{.event}}",
		variants: []string{
			"{{.task}} is unpaid and {{.event}} is {{.days}} days away.",
			"Settle {{.task}} before {{.event}} on {{.date}}.",
		},
	},
	types.RuleLogisticsIncomplete: {
		title: "Logistics open for {{.event}}",
		variants: []string{
			"{{.task}} still needs doing before {{.event}} in {{.days}} days.",
			"Travel and gear for {{.event}} are not sorted yet: {{.task}}.",
			"{{.event}} on {{.date}} still has an open logistics item: {{.task}}.",
		},
	},
	types.RuleSetlistMissing: {
		title: "Setlist needed",
		variants: []string{
			"{{.task}} is still pending. Build the setlist so rehearsals can start.",
			"No setlist yet for {{.event}}. Finish {{.task}} to lock in the running order.",
		},
	},
	types.RuleMarketingWindow: {
		title: "Promote {{.event}}",
		variants: []string{
			"{{.event}} is {{.days}} days away. Now is the time to post about it.",
			"Spread the word: {{.event}} at {{.venue}} is on {{.date}}.",
			"One week out from {{.event}}. Share it with your audience.",
		},
	},
	types.RuleMilestone: {
		title: "{{.count}} tasks done today",
		variants: []string{
			"You completed {{.count}} tasks today. Nice momentum.",
			"{{.count}} tasks finished today. Keep it going.",
		},
	},
	types.RuleNoUpcomingEvents: {
		title: "Your calendar is empty",
		variants: []string{
			"You have no upcoming events. Reach out to venues to book your next show.",
			"Nothing is scheduled yet. A new booking keeps your momentum going.",
			"No shows on the horizon. Now is a good time to pitch promoters.",
		},
	},
	types.RuleSingleUpcomingEvent: {
		title: "Only one show booked",
		variants: []string{
			"{{.event}} is your only upcoming event. Consider booking another.",
			"After {{.event}} your calendar is empty. Line up the next one.",
		},
	},
	types.RuleNoChecklist: {
		title: "No checklist for {{.event}}",
		variants: []string{
			"{{.event}} is {{.days}} days away and has no tasks attached. Add a preparation checklist.",
			"Nothing is planned for {{.event}} on {{.date}} yet. Create tasks for contract, payment and logistics.",
		},
	},
	types.RuleGoalBehind: {
		title: "{{.goal}} is behind",
		variants: []string{
			"{{.goal}} is at {{.current}} of {{.target}} with {{.days}} days left.",
			"{{.goal}} is due on {{.date}} and still short of {{.target}}.",
		},
	},
	types.RuleGoalAchieved: {
		title: "{{.goal}} reached",
		variants: []string{
			"You hit your target of {{.target}} for {{.goal}}.",
			"{{.goal}} is done: {{.current}} of {{.target}}.",
		},
	},
	types.RuleReleaseWindowOpening: {
		title: "{{.window}} opens soon",
		variants: []string{
			"The release window for {{.window}} opens in {{.days}} days.",
			"{{.window}} opens on {{.date}}. Get your assets ready.",
		},
	},
	types.RuleReleaseWindowClosing: {
		title: "{{.window}} closes soon",
		variants: []string{
			"The release window for {{.window}} closes in {{.days}} days.",
			"Last call for {{.window}}: it closes on {{.date}}.",
		},
	},
	types.RuleAllClear: {
		title: "All clear",
		variants: []string{
			"Nothing needs your attention right now.",
			"You are all caught up. Enjoy the quiet.",
			"Everything is on track.",
		},
	},
}
