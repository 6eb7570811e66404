package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type RaceStackProps struct {
	awscdk.StackProps
}

// env passes a deploy-time variable through to the function.
func env(key string) *string {
	return jsii.String(os.Getenv(key))
}

func NewRaceStack(scope constructs.Construct, id string, props *RaceStackProps) awscdk.Stack {
	var stackProps awscdk.StackProps
	if props != nil {
		stackProps = props.StackProps
	}

	stack := awscdk.NewStack(scope, &id, &stackProps)

	lambdaFn := awslambda.NewFunction(stack, jsii.String("RaceWeb"), &awslambda.FunctionProps{
		Runtime: awslambda.Runtime_PROVIDED_AL2023(),
		Handler: jsii.String("bootstrap"),
		Code:    awslambda.Code_FromAsset(jsii.String("../"), nil),
		Timeout: awscdk.Duration_Seconds(jsii.Number(30)),
		Environment: &map[string]*string{
			"APP":                          jsii.String("prod"),
			"API_BASE_URL":                 env("API_BASE_URL"),
			"ADMIN_USERNAME":               env("ADMIN_USERNAME"),
			"ADMIN_PASSWORD_HASH":          env("ADMIN_PASSWORD_HASH"),
			"SESSION_SECRET":               env("SESSION_SECRET"),
			"EXPORT_SECRET":                env("EXPORT_SECRET"),
			"TELEGRAM_BOT_TOKEN":           env("TELEGRAM_BOT_TOKEN"),
			"TELEGRAM_CHAT_ID":             env("TELEGRAM_CHAT_ID"),
			"GOOGLE_SHEETS_SPREADSHEET_ID": env("GOOGLE_SHEETS_SPREADSHEET_ID"),
			"LOG_FORMAT":                   jsii.String("json"),
		},
	})

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("RaceWebGateway"), &awsapigateway.LambdaRestApiProps{
		Handler: lambdaFn,
	})

	awscdk.NewCfnOutput(stack, jsii.String("Url"), &awscdk.CfnOutputProps{Value: api.Url()})

	return stack
}

func main() {
	app := awscdk.NewApp(nil)
	NewRaceStack(app, "PushbikeRaceStack", &RaceStackProps{})
	app.Synth(nil)
}
