package leavesync

import (
	"strings"

	leavesyncerrors "go-leavesync/internal/leavesync/errors"
)

// SyncType is the remote operation a sync attempt performs.
type SyncType int

const (
	SyncCreate SyncType = iota + 1
	SyncUpdate
	SyncApprove
	SyncRefuse
	SyncDelete
)

var syncTypeNames = map[SyncType]string{
	SyncCreate:  "create",
	SyncUpdate:  "update",
	SyncApprove: "approve",
	SyncRefuse:  "refuse",
	SyncDelete:  "delete",
}

func (t SyncType) String() string {
	if name, ok := syncTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// requiresRemote reports whether the operation acts on an existing remote record.
func (t SyncType) requiresRemote() bool {
	return t == SyncUpdate || t == SyncApprove || t == SyncRefuse
}

func ParseSyncType(s string) (SyncType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range syncTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, leavesyncerrors.ErrUnknownSyncType
}
