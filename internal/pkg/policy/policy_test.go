package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestCatalogRoleMatrix(t *testing.T) {
	ownerID := uintPtr(7)

	anonymous := Actor{}
	owner := Actor{ID: 7, Authenticated: true}
	moderator := Actor{ID: 9, Authenticated: true, Moderator: true}
	other := Actor{ID: 11, Authenticated: true}

	tests := []struct {
		name   string
		actor  Actor
		action Action
		owner  *uint
		want   bool
	}{
		{"anonymous list", anonymous, ActionList, nil, false},
		{"anonymous retrieve", anonymous, ActionRetrieve, ownerID, false},
		{"anonymous create", anonymous, ActionCreate, nil, false},
		{"anonymous update", anonymous, ActionUpdate, ownerID, false},
		{"anonymous delete", anonymous, ActionDelete, ownerID, false},

		{"owner list", owner, ActionList, nil, true},
		{"owner retrieve own", owner, ActionRetrieve, ownerID, true},
		{"owner update own", owner, ActionUpdate, ownerID, true},
		{"owner delete own", owner, ActionDelete, ownerID, true},
		{"owner update foreign", owner, ActionUpdate, uintPtr(99), false},
		{"owner delete foreign", owner, ActionDelete, uintPtr(99), false},

		{"moderator retrieve any", moderator, ActionRetrieve, ownerID, true},
		{"moderator update any", moderator, ActionUpdate, ownerID, true},
		{"moderator create blocked", moderator, ActionCreate, nil, false},
		{"moderator delete blocked", moderator, ActionDelete, ownerID, false},
		{"moderator delete own blocked", moderator, ActionDelete, uintPtr(9), false},

		{"other create", other, ActionCreate, nil, true},
		{"other retrieve foreign", other, ActionRetrieve, ownerID, false},
		{"other update foreign", other, ActionUpdate, ownerID, false},
		{"other delete foreign", other, ActionDelete, ownerID, false},

		{"nil owner retrieve by non-moderator", other, ActionRetrieve, nil, false},
		{"unknown action", other, Action("publish"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.actor, tt.action, tt.owner))
		})
	}
}

func TestCanViewAll(t *testing.T) {
	assert.False(t, CanViewAll(Actor{}))
	assert.False(t, CanViewAll(Actor{ID: 1, Authenticated: true}))
	assert.True(t, CanViewAll(Actor{ID: 1, Authenticated: true, Moderator: true}))
	// Moderator flag without authentication never grants visibility.
	assert.False(t, CanViewAll(Actor{Moderator: true}))
}

func TestCanAccessUser(t *testing.T) {
	assert.False(t, CanAccessUser(Actor{}, 1))
	assert.True(t, CanAccessUser(Actor{ID: 1, Authenticated: true}, 1))
	assert.False(t, CanAccessUser(Actor{ID: 2, Authenticated: true}, 1))
	assert.True(t, CanAccessUser(Actor{ID: 2, Authenticated: true, Staff: true}, 1))
}
