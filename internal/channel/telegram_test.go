package channel

import (
	"testing"

	tgModels "github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"

	"github.com/core-coin/ostiarius/internal/models"
)

func TestMemberState(t *testing.T) {
	assert.Equal(t, models.MemberLeft, memberState(tgModels.ChatMemberTypeLeft))
	assert.Equal(t, models.MemberKicked, memberState(tgModels.ChatMemberTypeBanned))
	for _, present := range []tgModels.ChatMemberType{
		tgModels.ChatMemberTypeOwner,
		tgModels.ChatMemberTypeAdministrator,
		tgModels.ChatMemberTypeMember,
		tgModels.ChatMemberTypeRestricted,
	} {
		assert.Equal(t, models.MemberPresent, memberState(present))
	}
}
