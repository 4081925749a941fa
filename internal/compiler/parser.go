package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/treeflat/pkg/domain"
)

// OrSeparator is the literal that separates the disjuncts of a decision node.
const OrSeparator = "||or||"

var (
	nodeLineRe = regexp.MustCompile(`^\s*(\d+)\s*:\s*(.*?)\s*$`)
	leafRe     = regexp.MustCompile(`^leaf\s*=\s*([+-]?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)$`)
	decisionRe = regexp.MustCompile(`^\[\s*(.*?)\s*\]\s*yes\s*=\s*(\d+)\s*,\s*no\s*=\s*(\d+)$`)
	orSplitRe  = regexp.MustCompile(`\s*` + regexp.QuoteMeta(OrSeparator) + `\s*`)
)

// Parser is responsible for converting raw tree lines into Nodes.
// It is stateless and safe for concurrent use.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// SplitID extracts the node id and the payload of a line.
// ok is false for blank lines, comments ("#") and lines without an "<id>:" prefix;
// those are skipped by every scanner.
func (p *Parser) SplitID(line string) (id domain.NodeID, payload string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return 0, "", false
	}
	m := nodeLineRe.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return domain.NodeID(n), m[2], true
}

// ParseNode parses the payload of a line already known to declare id.
// Failures are reported as *domain.NodeError wrapping domain.ErrMalformedNode
// or, for a bad condition, domain.ErrMalformedCondition.
func (p *Parser) ParseNode(id domain.NodeID, payload, line string) (domain.Node, error) {
	if m := leafRe.FindStringSubmatch(payload); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return domain.Node{}, &domain.NodeError{ID: id, Line: line, Err: fmt.Errorf("%w: %v", domain.ErrMalformedNode, err)}
		}
		return domain.NewLeaf(id, v), nil
	}

	m := decisionRe.FindStringSubmatch(payload)
	if m == nil {
		return domain.Node{}, &domain.NodeError{ID: id, Line: line, Err: domain.ErrMalformedNode}
	}
	if m[1] == "" {
		return domain.Node{}, &domain.NodeError{ID: id, Line: line, Err: fmt.Errorf("%w: empty condition list", domain.ErrMalformedNode)}
	}

	conds, err := p.SplitConditions(m[1])
	if err != nil {
		return domain.Node{}, &domain.NodeError{ID: id, Line: line, Err: err}
	}
	yes, errYes := strconv.Atoi(m[2])
	no, errNo := strconv.Atoi(m[3])
	if errYes != nil || errNo != nil {
		return domain.Node{}, &domain.NodeError{ID: id, Line: line, Err: fmt.Errorf("%w: child id out of range", domain.ErrMalformedNode)}
	}
	return domain.NewDecision(id, conds, domain.NodeID(yes), domain.NodeID(no)), nil
}

// ParseLine is SplitID followed by ParseNode.
func (p *Parser) ParseLine(line string) (domain.Node, bool, error) {
	id, payload, ok := p.SplitID(line)
	if !ok {
		return domain.Node{}, false, nil
	}
	node, err := p.ParseNode(id, payload, strings.TrimSpace(line))
	return node, true, err
}

// SplitConditions splits the inside of a "[...]" group on the disjunction
// separator. The output preserves source order.
func (p *Parser) SplitConditions(raw string) ([]domain.Condition, error) {
	parts := orSplitRe.Split(strings.TrimSpace(raw), -1)
	conds := make([]domain.Condition, 0, len(parts))
	for _, part := range parts {
		cond, err := p.ParseCondition(part)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// ParseCondition parses "<feature>=<value>" or "<feature>!=<value>".
// When both operators appear, the first "!=" wins.
func (p *Parser) ParseCondition(fragment string) (domain.Condition, error) {
	text := strings.TrimSpace(fragment)

	op := domain.OpNotEquals
	feature, value, found := strings.Cut(text, string(domain.OpNotEquals))
	if !found {
		op = domain.OpEquals
		feature, value, found = strings.Cut(text, string(domain.OpEquals))
	}
	if !found {
		return domain.Condition{}, &domain.ConditionError{Fragment: fragment, Err: fmt.Errorf("%w: expected '=' or '!='", domain.ErrMalformedCondition)}
	}

	feature, value = strings.TrimSpace(feature), strings.TrimSpace(value)
	if feature == "" || value == "" {
		return domain.Condition{}, &domain.ConditionError{Fragment: fragment, Err: fmt.Errorf("%w: empty feature or value", domain.ErrMalformedCondition)}
	}
	return domain.Condition{Feature: feature, Op: op, Value: value}, nil
}
