package teambuilder

import (
	"context"

	"staffing-workers/internal/models"
)

const ctxCheckInterval = 1024

// combinations returns every k-subset of 0..n-1 in lexicographic order.
func combinations(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	var out [][]int
	for {
		c := make([]int, k)
		copy(c, idx)
		out = append(out, c)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// binomial returns C(n, k) as a float64 so large pools cannot overflow.
func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}
	return r
}

// searchSpace is the number of teams an exhaustive search would visit.
func searchSpace(pools []*pool) float64 {
	space := 1.0
	for _, p := range pools {
		space *= binomial(len(p.members), p.size())
	}
	return space
}

type searchResult struct {
	team      []*member
	score     float64
	evaluated int64
}

// exhaustive visits every team in a fixed order: pools in request order, each
// pool's combinations lexicographically, the last pool varying fastest. The
// first team reaching the strictly highest score wins. A nil team means no
// valid team exists.
func exhaustive(ctx context.Context, pools []*pool, score objective) (searchResult, error) {
	res := searchResult{score: models.NoTeamScore}

	// combinations that break a constraint inside one role can never be part
	// of a valid team, so they are dropped before the product is walked
	combos := make([][][]int, len(pools))
	slots := 0
	for r, p := range pools {
		buf := make([]*member, 0, p.size())
		for _, c := range combinations(len(p.members), p.size()) {
			buf = buf[:0]
			for _, idx := range c {
				buf = append(buf, p.members[idx])
			}
			if validTeam(buf) {
				combos[r] = append(combos[r], c)
			}
		}
		if len(combos[r]) == 0 {
			return res, nil
		}
		slots += p.size()
	}

	counters := make([]int, len(pools))
	team := make([]*member, 0, slots)
	buf := make([]*models.CandidateSummary, 0, slots)
	for {
		team = team[:0]
		for r, c := range counters {
			for _, idx := range combos[r][c] {
				team = append(team, pools[r].members[idx])
			}
		}

		res.evaluated++
		if res.evaluated%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		if validTeam(team) {
			if s := score(summaries(team, buf)); s > res.score {
				res.score = s
				res.team = append([]*member(nil), team...)
			}
		}

		r := len(counters) - 1
		for ; r >= 0; r-- {
			counters[r]++
			if counters[r] < len(combos[r]) {
				break
			}
			counters[r] = 0
		}
		if r < 0 {
			return res, nil
		}
	}
}

// greedy fills pools in request order, taking candidates in rank order that
// keep the partial team valid. It gives up when a pool cannot be filled.
func greedy(ctx context.Context, pools []*pool, score objective) (searchResult, error) {
	res := searchResult{score: models.NoTeamScore}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	var team []*member
	for _, p := range pools {
		need := p.size()
		for _, m := range p.members {
			if need == 0 {
				break
			}
			if compatibleWithAll(m, team) {
				team = append(team, m)
				need--
			}
		}
		if need > 0 {
			return res, nil
		}
	}

	res.evaluated = 1
	res.team = team
	res.score = score(summaries(team, nil))
	return res, nil
}
