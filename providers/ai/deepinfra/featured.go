package deepinfra

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/leofalp/deepchat/internal/utils"
	"github.com/leofalp/deepchat/providers/ai"
	"github.com/leofalp/deepchat/providers/observability"
)

// ListModels fetches the featured catalogue and keeps text-generation models
// only, in the order the API lists them.
func (p *Provider) ListModels(ctx context.Context) ([]ai.Model, error) {
	in := instrument(ctx, featuredModelsEndpoint, "")

	response, err := p.do(ctx, featuredModelsEndpoint, http.MethodGet, nil)
	if err != nil {
		return nil, in.fail(err)
	}
	defer utils.CloseWithLog(response.Body)

	body, err := utils.ReadLimited(response.Body)
	if err != nil {
		return nil, in.fail(err)
	}
	if !utils.IsSuccessStatus(response.StatusCode) {
		return nil, in.fail(newAPIError(response.StatusCode, body))
	}

	var featured []featuredModel
	if err := json.Unmarshal(body, &featured); err != nil {
		return nil, in.fail(malformed(err))
	}

	models := make([]ai.Model, 0, len(featured))
	for _, entry := range featured {
		if entry.Type != ai.ModelTypeTextGeneration {
			continue
		}
		models = append(models, entry.toGeneric())
	}

	in.succeed(observability.Int(observability.AttrModelsCount, len(models)))
	return models, nil
}
