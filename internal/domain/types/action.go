package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionExternalServiceFailed = "external_service_failed"
	ActionProviderFallback      = "provider_fallback"

	ActionSnapshotPublished = "fleet_snapshot_published"
	ActionSnapshotConsumed  = "fleet_snapshot_consumed"
	ActionSceneRebuilt      = "scene_rebuilt"
	ActionStaleRouteDropped = "stale_route_discarded"
)
