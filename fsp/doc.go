// Package fsp provides a client for the record catalog service.
//
// The catalog stores records that tie an external identity (a VK user or
// group, a Telegram channel, an Instagram account, ...) to a free-text
// description, photos and creation/update/deletion provenance. The service
// answers with enriched records, where the actor ids are resolved into full
// author objects.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := fsp.NewClient(fsp.Config{
//		Host:     "catalog.internal",
//		Port:     "8080",
//		Username: "bot",
//		Password: "secret",
//	}, fsp.WithLogger(logger), fsp.WithTimeout(10*time.Second))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	record, err := client.Find(ctx, fsp.FindRequest{EntityID: "durov"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if record == nil {
//		// nothing stored for this entity
//	}
//
// # Results
//
// Every operation performs exactly one HTTP request. Read operations degrade
// to an empty result (a nil record, or an empty page for FindAll) when the
// service answers with a status the operation does not expect; the status is
// logged in that case.
//
// # Error Handling
//
// Statuses that mean the service rejected the request are returned as *Error:
//
//   - 400: KindValidation
//   - 401: KindAuthorization
//   - 406: KindDuplicate
//   - 500: KindInternal
//   - 503: KindEnrich
//
// A response body that is not valid JSON yields KindParseFailed. Each of these
// is logged with the status, the raw body, the payload and a summary of the
// outgoing request before it is returned. Errors can be matched with
// errors.Is against the exported sentinels:
//
//	if errors.Is(err, fsp.ErrDuplicate) {
//		// record already exists
//	}
//
// Transport failures (connection refused, timeouts, canceled contexts) are
// returned unchanged.
package fsp
