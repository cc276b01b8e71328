package graph

// ReplyTree returns the thread below a post. The tree is built iteratively;
// a post already placed in the tree or among the root's ancestors is left out,
// and nodes at the depth cap are not expanded.
func (g *Graph) ReplyTree(postUrl string) (*TreeNode, bool) {

	root, ok := g.posts[postUrl]
	if !ok {
		return nil, false
	}

	type frame struct {
		node  *TreeNode
		depth int
	}

	rootNode := &TreeNode{
		Post:        root,
		ParentChain: g.chains[postUrl].Posts,
		Moods:       g.reactions[postUrl],
	}
	visited := map[string]bool{postUrl: true}
	for _, ancestor := range rootNode.ParentChain {
		visited[ancestor] = true
	}
	stack := []frame{{rootNode, 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nodeUrl := top.node.Post.Url()
		kids := g.children[nodeUrl]
		if len(kids) == 0 {
			continue
		}
		if top.depth >= g.maxDepth {
			top.node.Truncated = true
			continue
		}
		chain := make([]string, 0, len(top.node.ParentChain)+1)
		chain = append(chain, top.node.ParentChain...)
		chain = append(chain, nodeUrl)

		for _, kid := range kids {
			kidUrl := kid.Url()
			if visited[kidUrl] {
				continue
			}
			visited[kidUrl] = true
			kidNode := &TreeNode{
				Post:        kid,
				ParentChain: chain,
				Moods:       g.reactions[kidUrl],
			}
			top.node.Children = append(top.node.Children, kidNode)
			stack = append(stack, frame{kidNode, top.depth + 1})
		}
	}
	return rootNode, true
}
