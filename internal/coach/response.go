package coach

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseResponse decodes generator output and checks it against the request.
// - Only the "deliverables" field is allowed at the top level
// - Every order_index must name a requested milestone, at most once
// - Deliverables must be non-empty strings
func ParseResponse(data []byte, req Request) (Response, error) {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return Response{}, fmt.Errorf("parse coach response: %w", err)
	}
	var extra []string
	for field := range rawMap {
		if field != "deliverables" {
			extra = append(extra, field)
		}
	}
	if len(extra) > 0 {
		return Response{}, fmt.Errorf("coach response contains disallowed fields: %v", extra)
	}
	if _, ok := rawMap["deliverables"]; !ok {
		return Response{}, fmt.Errorf("coach response missing required field: deliverables")
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("parse coach response structure: %w", err)
	}

	known := make(map[int]bool, len(req.Milestones))
	for _, m := range req.Milestones {
		known[m.OrderIndex] = true
	}
	seen := make(map[int]bool, len(resp.Deliverables))
	for _, d := range resp.Deliverables {
		if !known[d.OrderIndex] {
			return Response{}, fmt.Errorf("deliverables reference unknown milestone %d", d.OrderIndex)
		}
		if seen[d.OrderIndex] {
			return Response{}, fmt.Errorf("deliverables repeat milestone %d", d.OrderIndex)
		}
		seen[d.OrderIndex] = true
		for i, item := range d.KeyDeliverables {
			if strings.TrimSpace(item) == "" {
				return Response{}, fmt.Errorf("milestone %d deliverable[%d] must be a non-empty string", d.OrderIndex, i)
			}
		}
	}
	return resp, nil
}
