package archive

import (
	"fmt"

	"chipwarden/internal/domain"
)

// BuildTree returns the root of the browsable archive tree with the project
// level populated. Part and version children load lazily via LoadChildren.
func (s *Store) BuildTree() (*domain.TreeNode, error) {
	projects, err := s.Projects()
	if err != nil {
		return nil, err
	}

	root := &domain.TreeNode{
		Label:    "archive",
		Expanded: true,
		Loaded:   true,
	}
	for _, project := range projects {
		root.Children = append(root.Children, &domain.TreeNode{
			Kind:    domain.TreeProject,
			Label:   project,
			Project: project,
		})
	}
	return root, nil
}

// LoadChildren fills a node's children on first expansion: parts under a
// project, versions (newest first) under a part.
func (s *Store) LoadChildren(node *domain.TreeNode) error {
	if node.Loaded {
		return nil
	}

	switch node.Kind {
	case domain.TreeProject:
		parts, err := s.Parts(node.Project)
		if err != nil {
			return err
		}
		for _, part := range parts {
			node.Children = append(node.Children, &domain.TreeNode{
				Kind:    domain.TreePart,
				Label:   part,
				Project: node.Project,
				Part:    part,
			})
		}
	case domain.TreePart:
		versions, err := s.Versions(node.Project, node.Part)
		if err != nil {
			return err
		}
		for i := range versions {
			v := versions[i]
			node.Children = append(node.Children, &domain.TreeNode{
				Kind:    domain.TreeVersion,
				Label:   fmt.Sprintf("v%d - %s", v.Number, v.Posted),
				Project: node.Project,
				Part:    node.Part,
				Version: &v,
			})
		}
	}

	node.Loaded = true
	return nil
}
