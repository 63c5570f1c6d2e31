package specdata

// A small prefix trie over emoji codepoint sequences. FE0F never becomes an
// edge; instead each node remembers whether an optional FE0F may follow it,
// which matches how the upstream reference builds its matcher. Terminals
// store the fully-qualified sequence

type trieNode struct {
	edges map[rune]int
	fe0f  bool
	emoji []rune // fully-qualified form; nil when not a terminal
}

type emojiTrie struct {
	nodes []trieNode
}

func buildTrie(emoji [][]rune) *emojiTrie {
	t := &emojiTrie{nodes: make([]trieNode, 1, 64)}
	for _, fq := range emoji {
		t.insert(fq)
	}
	return t
}

func (t *emojiTrie) insert(fq []rune) {
	n := 0
	for _, cp := range fq {
		if cp == CPFE0F {
			t.nodes[n].fe0f = true
			continue
		}
		next, ok := t.nodes[n].edges[cp]
		if !ok {
			next = len(t.nodes)
			t.nodes = append(t.nodes, trieNode{})
			if t.nodes[n].edges == nil {
				t.nodes[n].edges = make(map[rune]int, 2)
			}
			t.nodes[n].edges[cp] = next
		}
		n = next
	}
	t.nodes[n].emoji = fq
}

// match walks cps greedily and returns the longest terminal reached. At most
// one FE0F is absorbed per optional slot, and absorbing it does not advance
// the trie
func (t *emojiTrie) match(cps []rune) (int, []rune) {
	n := 0
	best := 0
	var bestEmoji []rune
	fe0fSeen := false
	for i := 0; i < len(cps); {
		node := &t.nodes[n]
		if cps[i] == CPFE0F {
			if !node.fe0f || fe0fSeen {
				break
			}
			fe0fSeen = true
			i++
			if node.emoji != nil {
				best, bestEmoji = i, node.emoji
			}
			continue
		}
		next, ok := node.edges[cps[i]]
		if !ok {
			break
		}
		n = next
		i++
		fe0fSeen = false
		if t.nodes[n].emoji != nil {
			best, bestEmoji = i, t.nodes[n].emoji
		}
	}
	return best, bestEmoji
}
