package apify

import (
	"context"
)

// DatasetItems lists every item of a dataset in provider order, walking
// pages with the offset parameter until a short page signals the end.
func (c *Client) DatasetItems(ctx context.Context, datasetID string) ([]Record, error) {
	var items []Record
	offset := 0

	for {
		var page []Record
		if err := c.GetJSON(ctx, DatasetItemsPath(datasetID, offset, datasetPageLimit), &page); err != nil {
			c.logger.ErrorWithFields("failed to list dataset items", map[string]interface{}{
				"dataset_id": datasetID,
				"offset":     offset,
				"error":      err.Error(),
			})
			return nil, err
		}

		items = append(items, page...)

		if len(page) < datasetPageLimit {
			break
		}
		offset += len(page)
	}

	c.logger.InfoWithFields("dataset items fetched", map[string]interface{}{
		"dataset_id": datasetID,
		"count":      len(items),
	})

	return items, nil
}
