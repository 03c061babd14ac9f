package scene

import (
	"fmt"

	"github.com/google/uuid"

	"cc3-texbaker/internal/shader"
)

// Link connects an output socket to an input socket, by node id.
type Link struct {
	From       string
	FromSocket string
	To         string
	ToSocket   string
}

// Tree is an in-memory shader graph. Links refer to nodes by id so a deep
// copy keeps the graph intact.
type Tree struct {
	NodeList []*Node
	Links    []Link
}

func (t *Tree) Nodes() []shader.Node {
	out := make([]shader.Node, len(t.NodeList))
	for i, n := range t.NodeList {
		out[i] = n
	}
	return out
}

func (t *Tree) NewNode(kind shader.Kind) shader.Node {
	return t.Add(NewNode(uuid.NewString(), kind))
}

// Add appends n to the tree.
func (t *Tree) Add(n *Node) *Node {
	t.NodeList = append(t.NodeList, n)
	return n
}

// Node returns the node with the given id.
func (t *Tree) Node(id string) *Node {
	for _, n := range t.NodeList {
		if n.NodeID == id {
			return n
		}
	}
	return nil
}

func (t *Tree) Remove(n shader.Node) {
	if n == nil {
		return
	}
	id := n.ID()
	for i, own := range t.NodeList {
		if own.NodeID == id {
			t.NodeList = append(t.NodeList[:i], t.NodeList[i+1:]...)
			break
		}
	}
	links := t.Links[:0]
	for _, l := range t.Links {
		if l.From != id && l.To != id {
			links = append(links, l)
		}
	}
	t.Links = links
}

func (t *Tree) Link(from shader.Node, fromSocket string, to shader.Node, toSocket string) error {
	f := t.Node(from.ID())
	if f == nil {
		return fmt.Errorf("scene: link: node %s not in tree", from.Name())
	}
	d := t.Node(to.ID())
	if d == nil {
		return fmt.Errorf("scene: link: node %s not in tree", to.Name())
	}
	if !f.HasOutput(fromSocket) {
		return fmt.Errorf("scene: link: %s has no output %q", f.NodeName, fromSocket)
	}
	if !d.HasInput(toSocket) {
		return fmt.Errorf("scene: link: %s has no input %q", d.NodeName, toSocket)
	}
	t.unlink(d.NodeID, toSocket)
	t.Links = append(t.Links, Link{From: f.NodeID, FromSocket: fromSocket, To: d.NodeID, ToSocket: toSocket})
	return nil
}

func (t *Tree) Unlink(to shader.Node, toSocket string) error {
	d := t.Node(to.ID())
	if d == nil {
		return fmt.Errorf("scene: unlink: node %s not in tree", to.Name())
	}
	if !d.HasInput(toSocket) {
		return fmt.Errorf("scene: unlink: %s has no input %q", d.NodeName, toSocket)
	}
	t.unlink(d.NodeID, toSocket)
	return nil
}

func (t *Tree) unlink(id, socket string) {
	links := t.Links[:0]
	for _, l := range t.Links {
		if l.To != id || l.ToSocket != socket {
			links = append(links, l)
		}
	}
	t.Links = links
}

func (t *Tree) Source(to shader.Node, toSocket string) (shader.Node, string, bool) {
	if to == nil {
		return nil, "", false
	}
	id := to.ID()
	for _, l := range t.Links {
		if l.To == id && l.ToSocket == toSocket {
			if n := t.Node(l.From); n != nil {
				return n, l.FromSocket, true
			}
		}
	}
	return nil, "", false
}
