package repoargs

type RepositoryName string

const (
	UserRepoName          RepositoryName = "user"
	OrderRepoName         RepositoryName = "order"
	CampaignRepoName      RepositoryName = "campaign"
	DepositRepoName       RepositoryName = "deposit"
	AffiliateTxRepoName   RepositoryName = "affiliate_transaction"
	PriceOverrideRepoName RepositoryName = "price_override"
	NotificationRepoName  RepositoryName = "notification"
)
