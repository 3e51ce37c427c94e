package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullInfo(t *testing.T) {
	info := FullInfo()

	assert.True(t, strings.HasPrefix(info, "searcher "+Version+" (commit: "))
	assert.Contains(t, info, "built: "+BuildDate)
}

func TestFullInfo_LdflagCommitWins(t *testing.T) {
	saved := GitCommit
	t.Cleanup(func() { GitCommit = saved })

	GitCommit = "abc1234"
	assert.Contains(t, FullInfo(), "commit: abc1234")
}
