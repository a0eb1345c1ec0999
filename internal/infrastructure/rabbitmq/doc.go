// Package rabbitmq consumes device event messages from the broker and feeds
// them into the reading store and the live broadcast hub.
//
// Connection lifecycle is asymmetric. Startup retries are bounded: a broker
// that is absent at boot aborts the process, since starting without the bus
// would silently serve a dead pipeline. Steady-state channel faults trigger
// a full reconnect after a fixed delay, indefinitely.
//
// Each delivery is settled exactly once. Telemetry messages are acknowledged
// only after the reading is persisted; a failed insert is redelivered.
// Messages that cannot be parsed are rejected without requeue so a poison
// message cannot wedge the queue at prefetch 1.
package rabbitmq
