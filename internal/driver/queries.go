package driver

const (
	// SaveClientQuery upserts a client by its folded name and replaces its
	// field set.
	SaveClientQuery = `
		MERGE (c:Client {name_key: $name_key})
		ON CREATE SET c.uuid = $uuid, c.created_at = $now
		SET c.nome = $nome,
			c.updated_at = $now
		WITH c
		OPTIONAL MATCH (c)-[:HAS_FIELD]->(old:Field)
		DETACH DELETE old
		WITH DISTINCT c
		UNWIND $fields AS f
		CREATE (c)-[:HAS_FIELD]->(:Field {uuid: f.uuid, label: f.label, value: f.value, position: f.position})
		RETURN c.uuid AS uuid
	`

	// SaveClientWithoutFieldsQuery is used when the field list is empty,
	// since UNWIND over an empty list would drop the RETURN row.
	SaveClientWithoutFieldsQuery = `
		MERGE (c:Client {name_key: $name_key})
		ON CREATE SET c.uuid = $uuid, c.created_at = $now
		SET c.nome = $nome,
			c.updated_at = $now
		WITH c
		OPTIONAL MATCH (c)-[:HAS_FIELD]->(old:Field)
		DETACH DELETE old
		RETURN DISTINCT c.uuid AS uuid
	`

	// GetClientQuery returns one row per field, ordered as recorded. A client
	// without fields yields a single row with null label and value.
	GetClientQuery = `
		MATCH (c:Client {name_key: $name_key})
		OPTIONAL MATCH (c)-[:HAS_FIELD]->(f:Field)
		RETURN c.nome AS nome, f.label AS label, f.value AS value, f.position AS position
		ORDER BY position
	`
)
