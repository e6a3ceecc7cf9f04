package repoargs

type RepositoryName string

const (
	UserRepoName        RepositoryName = "user"
	ProductRepoName     RepositoryName = "product"
	AccountRepoName     RepositoryName = "account"
	OrderRepoName       RepositoryName = "order"
	TransactionRepoName RepositoryName = "transaction"
)
