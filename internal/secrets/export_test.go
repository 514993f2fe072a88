package secrets

// SecretsManagerAPI is exported for tests to substitute the AWS client.
type SecretsManagerAPI = secretsManagerAPI

// FromMap is exported for tests.
var FromMap = fromMap

// NewAWSStoreWithClient returns an AWSStore backed by the given client.
func NewAWSStoreWithClient(client secretsManagerAPI) *AWSStore {
	return &AWSStore{client: client}
}
