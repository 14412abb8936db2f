package store

// SQL query constants organized by entity.
// All SQL lives here — PostgresStore methods reference these constants.

// Manifest queries.
const (
	queryInsertManifest = `
		INSERT INTO manifests (id, name, created_at, updated_at)
		VALUES (@id, @name, now(), now())
		RETURNING created_at, updated_at`

	queryGetManifest = `
		SELECT id, name, total_msrp, projected_revenue, profit_margin,
			created_at, updated_at
		FROM manifests
		WHERE id = $1`

	queryListManifests = `
		SELECT id, name, total_msrp, projected_revenue, profit_margin,
			created_at, updated_at
		FROM manifests
		ORDER BY created_at DESC`

	// The margin ratio follows the 30% acquisition-cost model: cost is
	// 30% of projected revenue, margin is profit over cost.
	queryRecomputeManifestSummary = `
		UPDATE manifests SET
			total_msrp = (
				SELECT COALESCE(SUM(msrp * quantity), 0)
				FROM items WHERE manifest_id = @manifest_id
			),
			projected_revenue = (
				SELECT COALESCE(SUM(estimated_sale_price * quantity), 0)
				FROM items WHERE manifest_id = @manifest_id
			),
			profit_margin = (
				SELECT CASE
					WHEN SUM(estimated_sale_price * quantity) > 0
					THEN (SUM(estimated_sale_price * quantity) - (SUM(estimated_sale_price * quantity) * 0.30))
						/ (SUM(estimated_sale_price * quantity) * 0.30)
					ELSE 0
				END
				FROM items WHERE manifest_id = @manifest_id
			),
			updated_at = now()
		WHERE id = @manifest_id`
)

// Upload queries.
const (
	queryInsertUpload = `
		INSERT INTO uploads (id, manifest_id, filename, total_items, status, created_at, updated_at)
		VALUES (@id, @manifest_id, @filename, @total_items, @status, now(), now())
		RETURNING created_at, updated_at`

	queryGetUpload = `
		SELECT id, manifest_id, filename, total_items, processed_items, status,
			created_at, updated_at
		FROM uploads
		WHERE id = $1`

	queryListUploadsByStatus = `
		SELECT id, manifest_id, filename, total_items, processed_items, status,
			created_at, updated_at
		FROM uploads
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2`

	querySetUploadStatus = `
		UPDATE uploads SET status = $2, updated_at = now() WHERE id = $1`

	queryCountItemProgress = `
		SELECT COUNT(*),
			COUNT(CASE WHEN status = 'processed' THEN 1 END)
		FROM items
		WHERE manifest_id = $1`

	queryUpdateUploadProgress = `
		UPDATE uploads SET
			processed_items = @processed_items,
			status = @status,
			updated_at = now()
		WHERE id = @id`
)

// Item queries.
const (
	queryInsertItem = `
		INSERT INTO items (
			id, manifest_id, item_number, title, brand, upc, asin, model,
			category, condition, quantity, notes, msrp, status, created_at, updated_at
		) VALUES (
			@id, @manifest_id, @item_number, @title, @brand, @upc, @asin, @model,
			@category, @condition, @quantity, @notes, @msrp, 'pending', now(), now()
		)
		ON CONFLICT (manifest_id, item_number) DO UPDATE SET
			title = EXCLUDED.title,
			brand = EXCLUDED.brand,
			upc = EXCLUDED.upc,
			asin = EXCLUDED.asin,
			model = EXCLUDED.model,
			category = EXCLUDED.category,
			condition = EXCLUDED.condition,
			quantity = EXCLUDED.quantity,
			notes = EXCLUDED.notes,
			msrp = EXCLUDED.msrp,
			updated_at = now()`

	itemColumns = `
		id, manifest_id, item_number, title, brand, upc, asin, model,
		category, condition, quantity, notes,
		msrp, msrp_verified, current_market_price,
		image_url, COALESCE(features, '[]'),
		enriched, enrichment_source,
		estimated_sale_price, profit, demand, sales_time, reasoning,
		status, created_at, updated_at`

	queryListItemsByStatus = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE manifest_id = $1 AND status = $2
		ORDER BY item_number
		LIMIT $3`

	queryListItems = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE manifest_id = $1
		ORDER BY item_number`

	querySaveItemAnalysis = `
		UPDATE items SET
			estimated_sale_price = @estimated_sale_price,
			profit = @profit,
			demand = @demand,
			sales_time = @sales_time,
			reasoning = @reasoning,
			title = @title,
			brand = @brand,
			asin = @asin,
			model = @model,
			enriched = @enriched,
			enrichment_source = @enrichment_source,
			msrp = @msrp,
			msrp_verified = @msrp_verified,
			current_market_price = @current_market_price,
			condition = @condition,
			category = @category,
			features = @features,
			image_url = @image_url,
			status = 'processed',
			updated_at = now()
		WHERE id = @id`

	querySaveItemError = `
		INSERT INTO items (
			id, manifest_id, item_number, title, brand, quantity, msrp,
			estimated_sale_price, profit, demand, sales_time, reasoning,
			asin, model, enriched, enrichment_source, msrp_verified,
			current_market_price, condition, category, features, image_url,
			status, created_at, updated_at
		) VALUES (
			@id, @manifest_id, @item_number, @title, @brand, @quantity, @msrp,
			0, 0, 'Error', 'N/A', @reasoning,
			@asin, @model, @enriched, @enrichment_source, @msrp_verified,
			@current_market_price, @condition, @category, @features, @image_url,
			'processed', now(), now()
		)
		ON CONFLICT (manifest_id, item_number) DO UPDATE SET
			estimated_sale_price = 0,
			profit = 0,
			demand = 'Error',
			sales_time = 'N/A',
			reasoning = EXCLUDED.reasoning,
			asin = EXCLUDED.asin,
			model = EXCLUDED.model,
			enriched = EXCLUDED.enriched,
			enrichment_source = EXCLUDED.enrichment_source,
			msrp_verified = EXCLUDED.msrp_verified,
			current_market_price = EXCLUDED.current_market_price,
			condition = EXCLUDED.condition,
			category = EXCLUDED.category,
			features = EXCLUDED.features,
			image_url = EXCLUDED.image_url,
			status = 'processed',
			updated_at = now()`
)
