/*
Package sigv4 signs HTTP requests with AWS Signature Version 4 and verifies
requests signed with it. See https://docs.aws.amazon.com/IAM/latest/UserGuide/create-signed-request.html
for the authoritative protocol description.

Signing proceeds in four steps:

 1. The request is reduced to a canonical form: `<METHOD>\n<URI>\n<QUERY>\n<HEADERS>\n<SIGNED_HEADERS>\n<PAYLOAD_HASH>`,
    where the URI has each path segment percent-encoded, the query is sorted by
    encoded key and value, every request header appears lowercased and sorted
    with duplicate names merged, and the payload hash is hex(sha256(body)).
 2. The string to sign is assembled: `AWS4-HMAC-SHA256\n<TIMESTAMP>\n<SCOPE>\n<hex(sha256(CANONICAL))>`,
    with scope `<YYYYMMDD>/<region>/<service>/aws4_request`.
 3. A signing key scoped to that date, region and service is derived by chaining
    HMAC-SHA256 from `"AWS4"+secret` over the scope components. Intermediate
    values stay raw bytes; only the final signature is hex-encoded.
 4. The signature is HMAC-SHA256(signingKey, stringToSign), attached as
    `Authorization: AWS4-HMAC-SHA256 Credential=<ID>/<SCOPE>, SignedHeaders=<LIST>, Signature=<SIG>`.

The Signer mutates the given request in place, adding Host (when absent),
X-Amz-Date and Authorization, and nothing else. A Signer is safe for concurrent
use; all derived state is local to one call.
*/
package sigv4
