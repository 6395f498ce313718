package precedence

// Resolve computes the active channel for one (user, week) from the presence
// of picks on each channel and the optional admin decision.
//
// A decision naming a channel that currently holds no picks is ignored and
// presence alone decides, so stale decisions can never resurrect an empty
// channel.
func Resolve(hasAuthenticated, hasAnonymous bool, decision *Decision) Resolution {
	switch {
	case !hasAuthenticated && !hasAnonymous:
		return Resolution{State: StateNoConflict}
	case hasAuthenticated && !hasAnonymous:
		return Resolution{State: StateNoConflict, Active: ChannelAuthenticated}
	case !hasAuthenticated && hasAnonymous:
		return Resolution{State: StateNoConflict, Active: ChannelAnonymous}
	}

	if decision == nil {
		return Resolution{State: StateUnresolved}
	}
	switch decision.Winner {
	case ChannelAuthenticated:
		return Resolution{State: StateAuthenticatedActive, Active: ChannelAuthenticated}
	case ChannelAnonymous:
		return Resolution{
			State:     StateAnonymousActive,
			Active:    ChannelAnonymous,
			PickSetID: decision.PickSetID,
		}
	default:
		return Resolution{State: StateUnresolved}
	}
}
